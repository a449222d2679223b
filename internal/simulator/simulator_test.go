package simulator

import (
	"testing"
	"time"

	"autoprint/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestSim(cooldown time.Duration) (*Simulator, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return New(Options{Cooldown: cooldown, Now: clk.Now}), clk
}

func TestStartUpAndShutDownWithCooldown(t *testing.T) {
	sim, clk := newTestSim(30 * time.Second)

	sim.StartUp()
	if st := sim.State(); !st.Printer || !st.Light || !st.Connected {
		t.Fatalf("after startup: %+v", st)
	}

	sim.ShutDown()
	if st := sim.State(); !st.Cooldown || !st.Printer {
		t.Fatalf("expected cooldown with printer still on: %+v", st)
	}

	sim.Step(clk.t.Add(10 * time.Second))
	if !sim.State().Cooldown {
		t.Fatalf("cooldown ended too early")
	}
	sim.Step(clk.t.Add(30 * time.Second))
	if st := sim.State(); st.Cooldown || st.Printer || st.Light {
		t.Fatalf("expected powered off: %+v", st)
	}
}

func TestCancelShutDownKeepsPower(t *testing.T) {
	sim, clk := newTestSim(time.Minute)
	sim.StartUp()
	sim.ShutDown()
	sim.CancelShutDown()

	sim.Step(clk.t.Add(2 * time.Minute))
	if st := sim.State(); st.Cooldown || !st.Printer {
		t.Fatalf("expected printer on without cooldown: %+v", st)
	}
}

func TestShutDownWithoutCooldownIsImmediate(t *testing.T) {
	sim, _ := newTestSim(0)
	sim.StartUp()
	sim.ShutDown()
	if st := sim.State(); st.Printer || st.Light || st.Cooldown {
		t.Fatalf("expected off: %+v", st)
	}
}

func TestToggleLight(t *testing.T) {
	sim, _ := newTestSim(0)
	sim.ToggleLight()
	if !sim.State().Light {
		t.Fatalf("light should be on")
	}
	sim.ToggleLight()
	if sim.State().Light {
		t.Fatalf("light should be off")
	}
}

func TestSchedule_Validation(t *testing.T) {
	sim, clk := newTestSim(0)
	future := clk.t.Add(time.Hour).UnixMilli()

	tests := []struct {
		name  string
		req   ScheduleRequest
		param string
		msg   string
	}{
		{"file required", ScheduleRequest{TimeMs: future}, paramFile, "required"},
		{"unknown file", ScheduleRequest{File: "nope.gcode", TimeMs: future}, paramFile, "file not found"},
		{"not machine code", ScheduleRequest{File: "bracket.stl", Folder: "parts", TimeMs: future}, paramFile, "file not found"},
		{"time required", ScheduleRequest{File: "cube.gcode"}, paramTime, "required"},
		{"start in the past", ScheduleRequest{File: "cube.gcode", TimeMs: clk.t.Add(-time.Minute).UnixMilli()}, paramTime, ErrTooEarly.Error()},
		{"bad trigger", ScheduleRequest{File: "cube.gcode", TimeMs: future, Trigger: "later"}, paramStartFinish, "must be start or finish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := sim.Schedule(tt.req)
			if len(errs) != 1 || errs[0].Parameter != tt.param || errs[0].Message != tt.msg {
				t.Fatalf("errs = %+v, want %s: %s", errs, tt.param, tt.msg)
			}
		})
	}
	if sim.CurrentJob() != nil {
		t.Fatalf("rejected submissions must not store a job")
	}
}

func TestSchedule_FinishTriggerRoundsUpToMinute(t *testing.T) {
	sim, clk := newTestSim(0)
	finish := clk.t.Add(5 * time.Hour)

	// parts/bracket.gcode estimates 2h05m30s, which rounds up to 2h06m.
	job, errs := sim.Schedule(ScheduleRequest{
		File: "bracket.gcode", Folder: "/parts", TimeMs: finish.UnixMilli(), Trigger: models.TriggerFinish,
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if want := finish.Add(-126 * time.Minute); !job.StartTime.Equal(want) {
		t.Fatalf("start = %v, want %v", job.StartTime, want)
	}
	if job.Folder != "parts" {
		t.Fatalf("folder = %q", job.Folder)
	}

	// An exact minute estimate still gains a full minute.
	job, _ = sim.Schedule(ScheduleRequest{File: "cube.gcode", TimeMs: finish.UnixMilli(), Trigger: models.TriggerFinish})
	if want := finish.Add(-21 * time.Minute); !job.StartTime.Equal(want) {
		t.Fatalf("start = %v, want %v", job.StartTime, want)
	}
}

func TestSchedule_FinishTooCloseIsRejected(t *testing.T) {
	sim, clk := newTestSim(0)
	_, errs := sim.Schedule(ScheduleRequest{
		File: "benchy.gcode", TimeMs: clk.t.Add(30 * time.Minute).UnixMilli(), Trigger: models.TriggerFinish,
	})
	if len(errs) != 1 || errs[0].Parameter != paramTime {
		t.Fatalf("errs = %+v", errs)
	}
}

func TestJobFiresPrintsAndPowersDown(t *testing.T) {
	sim, clk := newTestSim(time.Minute)
	start := clk.t.Add(10 * time.Minute)

	if _, errs := sim.Schedule(ScheduleRequest{File: "cube.gcode", TimeMs: start.UnixMilli(), TurnOffAfterPrint: true}); errs != nil {
		t.Fatalf("schedule: %+v", errs)
	}

	sim.Step(start.Add(-time.Second))
	if sim.CurrentJob() == nil || sim.State().Printer {
		t.Fatalf("job fired early")
	}

	sim.Step(start)
	if st := sim.State(); !st.Printer || !st.PrintInProgress {
		t.Fatalf("expected printing: %+v", st)
	}
	if sim.CurrentJob() != nil {
		t.Fatalf("fired job should be removed")
	}

	sim.Step(start.Add(20 * time.Minute))
	if st := sim.State(); st.PrintInProgress || !st.Cooldown {
		t.Fatalf("expected cooldown after print: %+v", st)
	}
	sim.Step(start.Add(21 * time.Minute))
	if st := sim.State(); st.Printer || st.Light {
		t.Fatalf("expected powered off: %+v", st)
	}
}

func TestCancel(t *testing.T) {
	sim, clk := newTestSim(0)
	if sim.Cancel() {
		t.Fatalf("no job to cancel")
	}
	_, _ = sim.Schedule(ScheduleRequest{File: "cube.gcode", TimeMs: clk.t.Add(time.Hour).UnixMilli()})
	if !sim.Cancel() || sim.CurrentJob() != nil {
		t.Fatalf("cancel did not drop the job")
	}
}

func TestStorageTree(t *testing.T) {
	st := newStorage(DefaultEntries)

	root := st.tree("", false)
	var names []string
	for _, n := range root {
		names = append(names, n.Path+":"+n.Type)
		if n.Children != nil {
			t.Fatalf("non-recursive listing must not carry children")
		}
	}
	want := []string{"benchy.gcode:machinecode", "cal:folder", "cube.gcode:machinecode", "parts:folder"}
	if len(names) != len(want) {
		t.Fatalf("root = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("root = %v, want %v", names, want)
		}
	}

	full := st.tree("", true)
	for _, n := range full {
		if n.Path == "cal" && (len(n.Children) != 2 || n.Children[1].Path != "cal/towers") {
			t.Fatalf("cal children = %+v", n.Children)
		}
	}
}
