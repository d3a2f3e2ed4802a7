package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftwiki/internal/db"
	"github.com/chriserin/ftwiki/internal/logging"
)

func TestResult_RecordsStepResult(t *testing.T) {
	inTempDir(t)
	runInit(t)
	path := writeFeature(t, "login.ft", loginFeature)

	var buf bytes.Buffer
	require.NoError(t, RunResult(&buf, path, "5", "FAILED", "password rejected"))
	assert.Equal(t, "fts/login.ft:5 failed\n", buf.String())

	sqlDB, err := db.Open(db.DefaultPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	results, err := db.LatestResults(sqlDB, path)
	require.NoError(t, err)
	require.Contains(t, results, 5)
	assert.Equal(t, "failed", results[5].Status)
	assert.Equal(t, "password rejected", results[5].Message)
}

func TestResult_CleansPath(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.ft", loginFeature)

	var buf bytes.Buffer
	require.NoError(t, RunResult(&buf, "./fts//login.ft", "4", "passed", ""))
	assert.Equal(t, "fts/login.ft:4 passed\n", buf.String())
}

func TestResult_InvalidLine(t *testing.T) {
	inTempDir(t)
	runInit(t)
	path := writeFeature(t, "login.ft", loginFeature)

	var buf bytes.Buffer
	err := RunResult(&buf, path, "zero", "passed", "")
	assert.ErrorContains(t, err, "invalid line number")

	err = RunResult(&buf, path, "0", "passed", "")
	assert.ErrorContains(t, err, "invalid line number")
}

func TestResult_InvalidStatus(t *testing.T) {
	inTempDir(t)
	runInit(t)
	path := writeFeature(t, "login.ft", loginFeature)

	var buf bytes.Buffer
	err := RunResult(&buf, path, "4", "exploded", "")
	assert.ErrorContains(t, err, "unknown status")
}

func TestResult_LineIsNotAStep(t *testing.T) {
	inTempDir(t)
	runInit(t)
	path := writeFeature(t, "login.ft", loginFeature)

	var buf bytes.Buffer
	err := RunResult(&buf, path, "3", "passed", "")
	assert.ErrorContains(t, err, "line 3 of fts/login.ft is not a step")
}

func TestResult_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunResult(&buf, "fts/login.ft", "4", "passed", "")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestResult_LogsRecordedStatus(t *testing.T) {
	inTempDir(t)
	runInit(t)
	path := writeFeature(t, "login.ft", loginFeature)

	var logs bytes.Buffer
	orig := logging.Default()
	logging.SetDefault(logging.NewWithWriter(&logs, "debug"))
	t.Cleanup(func() { logging.SetDefault(orig) })

	var buf bytes.Buffer
	require.NoError(t, RunResult(&buf, path, "4", "skipped", ""))

	assert.Contains(t, logs.String(), "recorded result")
	assert.Contains(t, logs.String(), "status=skipped")
	assert.Contains(t, logs.String(), "line=4")
}
