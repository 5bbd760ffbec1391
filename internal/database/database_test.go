package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "documents", "recipients", "audit_logs", "orders", "memoranda", "letters", "incoming_letters", "daily_logs", "upload_records", "notifications"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := ConnectRedis(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	require.Equal(t, redisDialTimeout, client.Options().DialTimeout)

	check := PingRedis(client)
	require.NoError(t, check(ctx))

	mr.Close()
	require.Error(t, check(ctx))
	require.NoError(t, client.Close())

	_, err = ConnectRedis(ctx, "")
	require.Error(t, err)

	_, err = ConnectRedis(ctx, "mysql://nope")
	require.Error(t, err)

	require.Error(t, PingRedis(nil)(ctx))
}

func TestPingSQL(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:ping?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	check := PingSQL(db)
	require.NoError(t, check(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	require.Error(t, check(context.Background()))

	require.Error(t, PingSQL(nil)(context.Background()))
}

func TestConnectRejectsEmptyURLs(t *testing.T) {
	_, err := ConnectPostgres("")
	require.Error(t, err)

	_, err = ConnectNATS("", "saraban")
	require.Error(t, err)
}
