package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"gymapi/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	base := config.DatabaseConfig{Host: "db", Port: "5432", User: "gym", Name: "gym"}

	tests := []struct {
		name    string
		mutate  func(c *config.DatabaseConfig)
		want    string
		wantErr string
	}{
		{
			name: "minimal",
			want: "postgres://gym@db:5432/gym",
		},
		{
			name: "password, sslmode, application name and timeout",
			mutate: func(c *config.DatabaseConfig) {
				c.Password = "p@ss word"
				c.SSLMode = "require"
				c.ApplicationName = "gymapi"
				c.ConnectTimeout = 3 * time.Second
			},
			want: "postgres://gym:p%40ss%20word@db:5432/gym?application_name=gymapi&connect_timeout=3&sslmode=require",
		},
		{
			name:   "sub-second timeout is omitted",
			mutate: func(c *config.DatabaseConfig) { c.ConnectTimeout = 500 * time.Millisecond },
			want:   "postgres://gym@db:5432/gym",
		},
		{
			name:    "missing host",
			mutate:  func(c *config.DatabaseConfig) { c.Host = "" },
			wantErr: "host, port, user, and name are required",
		},
		{
			name:    "missing name",
			mutate:  func(c *config.DatabaseConfig) { c.Name = "" },
			wantErr: "host, port, user, and name are required",
		},
		{
			name:    "non numeric port",
			mutate:  func(c *config.DatabaseConfig) { c.Port = "pg" },
			wantErr: `port "pg" is not a number`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			got, err := BuildPostgresDSN(c)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// stubOpen points sqlOpen at db for the duration of the test.
func stubOpen(t *testing.T, db *sql.DB, err error) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
		return db, err
	}
	t.Cleanup(func() { sqlOpen = orig })
}

func TestNewPostgres(t *testing.T) {
	conf := config.DatabaseConfig{
		Host:               "localhost",
		Port:               "5432",
		User:               "gym",
		Password:           "pass",
		Name:               "gym",
		ConnectTimeout:     time.Second,
		MaxOpenConns:       10,
		MaxIdleConns:       5,
		ConnMaxLifetimeSec: 300,
	}
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		stubOpen(t, db, nil)

		mock.ExpectPing()

		gotDB, err := NewPostgres(ctx, conf)
		require.NoError(t, err)
		assert.Same(t, db, gotDB)
		assert.Equal(t, 10, gotDB.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open error", func(t *testing.T) {
		stubOpen(t, nil, errors.New("open error"))

		gotDB, err := NewPostgres(ctx, conf)
		assert.EqualError(t, err, "sql open: open error")
		assert.Nil(t, gotDB)
	})

	t.Run("ping error closes the pool", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)

		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()

		gotDB, err := NewPostgres(ctx, conf)
		assert.EqualError(t, err, "db ping: ping failed")
		assert.Nil(t, gotDB)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, db, nil)
		mock.ExpectPing().WillDelayFor(time.Second)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err = NewPostgres(cctx, conf)
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		gotDB, err := NewPostgres(ctx, config.DatabaseConfig{})
		assert.Error(t, err)
		assert.Nil(t, gotDB)
	})
}
