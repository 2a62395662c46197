package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryReportGeneratesPDF(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Café molido", "780123", 4590, 3)
	env.create(t, "Azúcar", "780456", 1290, 40)

	report := NewInventoryReport(env.service, 5, env.logger)
	data, err := report.Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

type memoryUploader struct {
	key  string
	data []byte
	err  error
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key = key
	u.data = data
	return "http://storage/" + key, nil
}

func TestBackupServiceRun(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Harina", "", 1000, 2)

	uploader := &memoryUploader{}
	backup := NewBackupService(env.store, uploader, env.logger)
	backup.now = env.clock.Now

	result, err := backup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/cashier-20240601T120000Z.db", result.Key)
	assert.Equal(t, "http://storage/"+result.Key, result.URL)
	assert.Equal(t, int64(len(uploader.data)), result.Size)
	assert.Positive(t, result.Size)
}

func TestBackupServiceUnavailableAndUploadError(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewBackupService(nil, &memoryUploader{}, env.logger).Run(context.Background())
	assert.ErrorIs(t, err, ErrBackupUnavailable)

	_, err = NewBackupService(env.store, nil, env.logger).Run(context.Background())
	assert.ErrorIs(t, err, ErrBackupUnavailable)

	failing := &memoryUploader{err: errors.New("denied")}
	_, err = NewBackupService(env.store, failing, env.logger).Run(context.Background())
	assert.Error(t, err)
}
