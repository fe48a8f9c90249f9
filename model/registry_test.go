package model

import (
	"sync"
	"testing"
)

func TestLookupBothNames(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	byIdent, ok := reg.Lookup("E21Person")
	if !ok {
		t.Fatal("lookup by normalized name failed")
	}
	bySafe, ok := reg.Lookup("E21_Person")
	if !ok {
		t.Fatal("lookup by safe name failed")
	}
	if byIdent != bySafe {
		t.Error("normalized and safe names resolve to different types")
	}

	if _, ok := reg.Lookup("E999Nothing"); ok {
		t.Error("unknown name resolved")
	}
}

func TestRootsAndLen(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	roots := reg.Roots()
	names := make(map[string]bool, len(roots))
	for _, r := range roots {
		names[r.Name] = true
	}
	if !names["E1CRMEntity"] || !names["Literal"] {
		t.Errorf("roots = %v", names)
	}
	if len(roots) != 2 {
		t.Errorf("got %d roots", len(roots))
	}

	if reg.Len() != len(reg.Types()) {
		t.Errorf("Len %d != Types %d", reg.Len(), len(reg.Types()))
	}
}

func TestReplace(t *testing.T) {
	reg := NewRegistry()
	if reg.Len() != 0 {
		t.Fatal("new registry not empty")
	}

	built := mustBuild(t, BuildOptions{})
	reg.Replace(built)

	if reg.Len() != built.Len() {
		t.Fatalf("Len = %d, want %d", reg.Len(), built.Len())
	}
	if _, ok := reg.Lookup("E21Person"); !ok {
		t.Error("replaced registry missing E21Person")
	}
}

func TestReplaceConcurrentReaders(t *testing.T) {
	reg := NewRegistry()
	built := mustBuild(t, BuildOptions{})
	reg.Replace(built)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if t2, ok := reg.Lookup("E21Person"); ok && t2.Name != "E21Person" {
					t.Error("lookup returned wrong type")
					return
				}
				_ = reg.Types()
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reg.Replace(built)
			}
		}()
	}
	wg.Wait()
}

func TestGlobalSingleton(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	if Global() != Global() {
		t.Fatal("Global returned distinct instances")
	}

	built := mustBuild(t, BuildOptions{})
	Global().Replace(built)
	if _, ok := Global().Lookup("E1CRMEntity"); !ok {
		t.Error("global registry missing built type")
	}
}

func TestInitGlobal(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	custom := mustBuild(t, BuildOptions{})
	InitGlobal(custom)
	if Global() != custom {
		t.Error("InitGlobal did not take effect before first Global call")
	}
}
