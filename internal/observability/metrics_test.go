package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type article struct {
	ID    uint
	Title string
}

func TestRegisterDatabaseMetricsObservesQueries(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterDatabaseMetrics(db))
	require.NoError(t, db.AutoMigrate(&article{}))

	before := testutil.CollectAndCount(DatabaseQueryLatency)

	require.NoError(t, db.Create(&article{Title: "instrumented"}).Error)
	var got article
	require.NoError(t, db.First(&got, "title = ?", "instrumented").Error)
	require.NoError(t, db.Delete(&got).Error)

	// create, query and delete each add a labelled series.
	after := testutil.CollectAndCount(DatabaseQueryLatency)
	assert.GreaterOrEqual(t, after-before, 3)
}
