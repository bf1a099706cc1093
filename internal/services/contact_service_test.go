package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogpress/pkg/utils"
)

func validContact() ContactEmail {
	return ContactEmail{
		Name:    "Grace",
		Email:   "grace@example.com",
		Subject: "Guest post idea",
		Message: "I would love to write about keyboard navigation.",
	}
}

func TestSubmitContactMessage(t *testing.T) {
	repo := &contactRepoStub{}
	notifier := &notifierStub{}
	svc := NewContactService(repo, notifier, quietLogger(), nil)

	res, err := svc.SubmitContactMessage(context.Background(), validContact())
	require.NoError(t, err)
	assert.True(t, res.NotificationQueued)
	require.Len(t, repo.created, 1)
	require.Len(t, notifier.contacts, 1)
	assert.Equal(t, "Guest post idea", notifier.contacts[0].Subject)
}

func TestSubmitContactMessageValidation(t *testing.T) {
	cases := map[string]func(*ContactEmail){
		"name":    func(c *ContactEmail) { c.Name = "G" },
		"email":   func(c *ContactEmail) { c.Email = "grace@" },
		"subject": func(c *ContactEmail) { c.Subject = "Hi" },
		"message": func(c *ContactEmail) { c.Message = "  short  " },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			repo := &contactRepoStub{}
			in := validContact()
			mutate(&in)

			_, err := NewContactService(repo, &notifierStub{}, quietLogger(), nil).SubmitContactMessage(context.Background(), in)
			var validation *utils.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, field, validation.Field)
			assert.Empty(t, repo.created)
		})
	}
}

func TestSubmitContactMessagePersistFailureIsFatal(t *testing.T) {
	notifier := &notifierStub{}
	svc := NewContactService(&contactRepoStub{err: errors.New("db down")}, notifier, quietLogger(), nil)

	_, err := svc.SubmitContactMessage(context.Background(), validContact())
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Empty(t, notifier.contacts)
}

func TestSubmitContactMessageEnqueueFailureIsReported(t *testing.T) {
	svc := NewContactService(&contactRepoStub{}, &notifierStub{err: errors.New("outbox down")}, quietLogger(), nil)

	res, err := svc.SubmitContactMessage(context.Background(), validContact())
	require.NoError(t, err)
	assert.False(t, res.NotificationQueued)
	assert.ErrorIs(t, res.NotificationErr, utils.ErrNotificationFailed)
}
