//go:build integration
// +build integration

package lifecycle

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"testing"

	"clientdesk-backend/internal/testutils"
)

// TestMain runs before all lifecycle tests and ensures proper Docker cleanup
func TestMain(m *testing.M) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Lifecycle tests interrupted, cleaning up Docker containers...")
		testutils.CleanupSharedContainer()
		os.Exit(1)
	}()

	code := m.Run()

	testutils.CleanupSharedContainer()
	os.Exit(code)
}
