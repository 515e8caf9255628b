package prefstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisStore_Get(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		expect  func(m redismock.ClientMock, key string)
		want    string
		wantOK  bool
		wantErr bool
	}{
		{
			name:   "stored preference",
			prefix: "site:",
			expect: func(m redismock.ClientMock, key string) { m.ExpectGet(key).SetVal("fr") },
			want:   "fr",
			wantOK: true,
		},
		{
			name:   "first visit",
			prefix: "site:",
			expect: func(m redismock.ClientMock, key string) { m.ExpectGet(key).RedisNil() },
		},
		{
			name:    "backend down",
			expect:  func(m redismock.ClientMock, key string) { m.ExpectGet(key).SetErr(errors.New("connection refused")) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			defer db.Close()

			store := NewRedisStoreFromClient(db, time.Hour, tt.prefix)
			key := tt.prefix + "visitor-42"
			if tt.prefix == "" {
				key = DefaultRedisPrefix + "visitor-42"
			}
			tt.expect(mock, key)

			v, ok, err := store.Get(context.Background(), "visitor-42")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get error = %v, wantErr %v", err, tt.wantErr)
			}
			if v != tt.want || ok != tt.wantOK {
				t.Errorf("Get = %q, %v; want %q, %v", v, ok, tt.want, tt.wantOK)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRedisStore_SetExpiry(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"sliding year", 365 * 24 * time.Hour, 365 * 24 * time.Hour},
		{"negative keeps forever", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			defer db.Close()

			store := NewRedisStoreFromClient(db, tt.ttl, "site:")
			mock.ExpectSet("site:visitor-42", "de", tt.want).SetVal("OK")

			if err := store.Set(context.Background(), "visitor-42", "de"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
