package redis

import (
	"context"
	"os"
	"testing"
)

func testAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestConnect(t *testing.T) {
	rdb, err := Connect(context.Background(), Config{Addr: testAddr()})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after connect: %v", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected error for unreachable address")
	}
}
