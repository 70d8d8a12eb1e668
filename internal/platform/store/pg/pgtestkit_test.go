package pg

import (
	"context"
	"testing"
)

// withTestDB opens a client against dsn for the test and closes it on cleanup
func withTestDB(t *testing.T, dsn string) *PG {
	t.Helper()
	client, err := Open(context.Background(), Config{URL: dsn, AppName: "leadsdash-pg-test"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)
	return client
}
