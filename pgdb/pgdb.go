package pgdb

import (
	"database/sql"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func Open(pgDsn string) *bun.DB {
	sqldb, err := sql.Open("pg", pgDsn)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open pg database.")
	}
	err = sqldb.Ping()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not ping pg database.")
	}

	bdb := bun.NewDB(sqldb, pgdialect.New())
	if os.Getenv("DB_VERBOSE") == "true" {
		bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return bdb
}

// Integration tests need a real pg instance, but starting one per test is
// too slow, so testenv starts it once and hands the datasource to every
// test through the environment.

func OpenTest() *bun.DB {
	return Open(TestEnvDsn())
}

func TestEnvDsn() string {
	return os.Getenv("PACTDB_TEST_DSN")
}

func SetTestEnvDsn(dsn string) {
	os.Setenv("PACTDB_TEST_DSN", dsn)
}
