package testkit

import (
	"os"
	"testing"
)

var (
	openSeam    = os.Open
	reportEvery = 10000
)

func TestSwap_FunctionAndRestore(t *testing.T) {
	t.Run("swap-in-subtest", func(t *testing.T) {
		Swap(t, &openSeam, func(string) (*os.File, error) { return nil, os.ErrPermission })
		if _, err := openSeam("anything"); err != os.ErrPermission {
			t.Fatalf("swap did not take effect, err=%v", err)
		}
	})

	// after subtest completes, Cleanup restored the original
	if _, err := openSeam("/definitely/not/here"); err == os.ErrPermission {
		t.Fatalf("swap did not restore original")
	}
}

func TestSwap_NonFunctionType(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		Swap(t, &reportEvery, 2)
		if reportEvery != 2 {
			t.Fatalf("swap failed, got %d want 2", reportEvery)
		}
	})
	if reportEvery != 10000 {
		t.Fatalf("swap did not restore original, got %d want 10000", reportEvery)
	}
}
