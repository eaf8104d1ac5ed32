package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"restock-backend/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDecode(data []byte) (*table.Table, error) {
	switch string(data) {
	case "bad":
		return nil, errors.New("broken file")
	case "panic":
		panic("boom")
	case "slow":
		time.Sleep(20 * time.Millisecond)
	}
	t := table.New("name")
	t.Append(table.Row{"name": string(data)})
	return t, nil
}

func TestLoadAllPreservesSubmissionOrder(t *testing.T) {
	files := []File{
		{Name: "A-1.xlsx", Data: []byte("slow")},
		{Name: "B-1.xlsx", Data: []byte("fast")},
		{Name: "C-1.xlsx", Data: []byte("bad")},
		{Name: "D-1.xlsx", Data: []byte("panic")},
	}

	var calls int32
	results := LoadAll(context.Background(), files, fakeDecode, 4, func(Result) {
		atomic.AddInt32(&calls, 1)
	})

	require.Len(t, results, 4)
	assert.EqualValues(t, 4, calls)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, files[i].Name, r.Name)
	}
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "slow", results[0].Table.Rows[0]["name"])
	assert.NoError(t, results[1].Err)
	assert.EqualError(t, results[2].Err, "broken file")
	assert.Error(t, results[3].Err)

	loaded, failed := Split(results)
	assert.Len(t, loaded, 2)
	assert.Len(t, failed, 2)
	assert.Equal(t, "A-1.xlsx", loaded[0].Name)
	assert.Equal(t, "B-1.xlsx", loaded[1].Name)
}

func TestLoadAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := LoadAll(ctx, []File{{Name: "x", Data: []byte("ok")}}, fakeDecode, 1, nil)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestLoadAllEmpty(t *testing.T) {
	assert.Empty(t, LoadAll(context.Background(), nil, fakeDecode, 0, nil))
}
