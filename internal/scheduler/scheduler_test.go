package scheduler

import (
	"context"
	"errors"
	"testing"

	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	ids []uuid.UUID
	err error
}

func (f *fakeRefresher) RefreshQRCode(_ context.Context, id uuid.UUID) error {
	f.ids = append(f.ids, id)
	return f.err
}

func TestRefreshPayloadRoundTrip(t *testing.T) {
	id := uuid.New()
	task, err := NewRefreshVCardQRCodeTask(RefreshVCardQRCodePayload{VCardID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, TaskRefreshVCardQRCode, task.Type())

	payload, err := ParseRefreshVCardQRCodePayload(task)
	require.NoError(t, err)
	got, err := payload.ParseVCardID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestHandleRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	w := &Worker{refresher: refresher, log: logger.New("test")}
	mux := w.routes()
	ctx := context.Background()
	id := uuid.New()

	task, _ := NewRefreshVCardQRCodeTask(RefreshVCardQRCodePayload{VCardID: id.String()})
	require.NoError(t, mux.ProcessTask(ctx, task))
	assert.Equal(t, []uuid.UUID{id}, refresher.ids)

	refresher.err = apperr.NotFound("vcard not found")
	assert.NoError(t, mux.ProcessTask(ctx, task))

	boom := errors.New("db down")
	refresher.err = boom
	assert.ErrorIs(t, mux.ProcessTask(ctx, task), boom)

	bad, _ := NewRefreshVCardQRCodeTask(RefreshVCardQRCodePayload{VCardID: "nope"})
	assert.ErrorIs(t, mux.ProcessTask(ctx, bad), asynq.SkipRetry)

	assert.ErrorIs(t, mux.ProcessTask(ctx, asynq.NewTask(TaskRefreshVCardQRCode, []byte("{"))), asynq.SkipRetry)
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@cache:6380/2", false)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
	assert.Nil(t, opt.TLSConfig)

	opt, err = redisClientOpt("redis://cache:6379", true)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)

	opt, err = redisClientOpt("rediss://cache:6379", false)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	assert.False(t, opt.TLSConfig.InsecureSkipVerify)

	_, err = redisClientOpt("http://cache", false)
	assert.Error(t, err)
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	assert.NoError(t, c.EnqueueVCardQRCodeRefresh(context.Background(), uuid.New()))
	assert.NoError(t, c.Close())
}
