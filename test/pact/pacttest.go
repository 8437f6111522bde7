//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "orders-portal"

	StateServicesBaseline = "service catalogue seeded"
	StateOrderExists      = "order with id 1 exists"
	StateOrderMissing     = "no order with id 404"
	StateOrdersCreated    = "orders created during the last day"
)

const (
	ExistingServiceID int64 = 1
	ExistingOrderID   int64 = 1
	MissingOrderID    int64 = 404

	ExampleServiceName = "Haircut"
	ExampleOrderName   = "Hair Cut"
	ExampleItemName    = "Shampoo"
	ExampleTimestamp   = "2023-01-01T10:00:00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the orders portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreatePayload is the request body the portal sends to create an order.
func ExampleCreatePayload() map[string]any {
	return map[string]any{
		"name":       ExampleOrderName,
		"service_id": ExistingServiceID,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
