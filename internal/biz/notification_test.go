package biz

import (
	"context"
	"testing"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationUsecase_Notify(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewNotificationUsecase(pub, log.DefaultLogger)
	ctx := pkglog.WithRequestContext(context.Background(), "req0000003", "tenant-a", "user-1")

	id, err := uc.Notify(ctx, "tenant-a", "project.created", map[string]string{"project_id": "p-1"})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	events := pub.sent()
	require.Len(t, events, 1)
	assert.Equal(t, model.TopicDomainEvents, events[0].topic)
	assert.Equal(t, "tenant-a", events[0].key)

	env := events[0].payload.(*model.Envelope)
	assert.Equal(t, id, env.ID)
	assert.Equal(t, "project.created", env.Type)
	assert.Equal(t, "req0000003", env.RequestID)
}

func TestNotificationUsecase_PublisherOpenIsInvisible(t *testing.T) {
	uc := NewNotificationUsecase(&recordingPublisher{open: true}, log.DefaultLogger)

	_, err := uc.Notify(context.Background(), "tenant-a", "project.created", nil)
	assert.NoError(t, err)
}

func TestNotificationUsecase_Validation(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewNotificationUsecase(pub, log.DefaultLogger)

	_, err := uc.Notify(context.Background(), "", "project.created", nil)
	assert.True(t, kerrors.IsBadRequest(err))
	_, err = uc.Notify(context.Background(), "tenant-a", "", nil)
	assert.True(t, kerrors.IsBadRequest(err))
	assert.Empty(t, pub.sent())
}

func TestNewEnvelope_WithoutRequestContext(t *testing.T) {
	env := NewEnvelope(context.Background(), "x", "tenant-a", nil)

	assert.Empty(t, env.RequestID)
	assert.Equal(t, "tenant-a", env.TenantID)
	assert.NotEmpty(t, env.ID)
}
