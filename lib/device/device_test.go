package device

import (
	"testing"
)

func TestComputeCapabilityLimits(t *testing.T) {
	old := NewParams(20)
	if old.MaxGridX() != 65535 {
		t.Errorf("Expected an sm_20 grid-x limit of 65535, got %d",
			old.MaxGridX())
	}

	newer := NewParams(35)
	if newer.MaxGridX() != (1<<31)-1 {
		t.Errorf("Expected an sm_35 grid-x limit of 2^31-1, got %d",
			newer.MaxGridX())
	}

	if newer.MaxBlockX() != 1024 || newer.MaxBlockZ() != 64 {
		t.Errorf("Expected block limits 1024/1024/64, got %d/%d/%d",
			newer.MaxBlockX(), newer.MaxBlockY(), newer.MaxBlockZ())
	}
	if newer.MaxSMem() != 48*1024 {
		t.Errorf("Expected a 48 KiB shared memory limit, got %d",
			newer.MaxSMem())
	}
}

func TestLaunchGeometry(t *testing.T) {
	p := NewParams(20)

	tests := []struct {
		sites, blockSize int
		ok               bool
	}{
		{512, 128, true},
		{512, 0, true},
		{1, 1, true},
		{100, 7, true},
		{65535 * 128 * 2, 128, true}, // spills into grid y
		{0, 128, false},
		{512, 2048, false},
	}

	for i := range tests {
		launch, err := p.LaunchGeometry(tests[i].sites, tests[i].blockSize)
		if !tests[i].ok {
			if err == nil {
				t.Errorf("%d) Expected LaunchGeometry(%d, %d) to fail.",
					i, tests[i].sites, tests[i].blockSize)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d) Unexpected error: %v", i, err)
			continue
		}

		if launch.GridX > p.MaxGridX() || launch.GridY > p.MaxGridY() ||
			launch.BlockX > p.MaxBlockX() {
			t.Errorf("%d) Launch %+v exceeds device limits", i, launch)
		}
		if covered := launch.GridX * launch.GridY * launch.BlockX; covered < tests[i].sites {
			t.Errorf("%d) Launch %+v covers %d threads, needs %d",
				i, launch, covered, tests[i].sites)
		}
	}
}

func TestSyncDevice(t *testing.T) {
	p := NewParams(30)
	if p.SyncDevice() {
		t.Errorf("Expected device sync to default to false.")
	}
	p.SetSyncDevice(true)
	if !p.SyncDevice() {
		t.Errorf("Expected device sync to be set.")
	}
}
