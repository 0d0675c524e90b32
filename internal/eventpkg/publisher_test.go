package eventpkg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}

	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishTransaction(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "ledger.events")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return now }

	record := domain.Transaction{
		ID:            uuid.New(),
		Type:          domain.TransactionTransfer,
		Amount:        moneypkg.MustParse("10000"),
		FromAccountID: domain.NullableID(uuid.New()),
		ToAccountID:   domain.NullableID(uuid.New()),
		CreatedAt:     now,
	}

	require.NoError(t, p.PublishTransaction(context.Background(), record))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	require.Equal(t, "ledger.events", got.exchange)
	require.Equal(t, RoutingKeyTransactionExecuted, got.key)
	require.Equal(t, record.ID.String(), got.msg.MessageId)
	require.Equal(t, "application/json", got.msg.ContentType)
	require.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body struct {
		Event       string `json:"event"`
		Transaction struct {
			ID            uuid.UUID `json:"id"`
			Type          string    `json:"type"`
			Amount        float64   `json:"amount"`
			FromAccountID uuid.UUID `json:"fromAccountId"`
		} `json:"transaction"`
	}

	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	require.Equal(t, RoutingKeyTransactionExecuted, body.Event)
	require.Equal(t, record.ID, body.Transaction.ID)
	require.Equal(t, "TRANSFER", body.Transaction.Type)
	require.Equal(t, 10000.0, body.Transaction.Amount)
	require.Equal(t, record.FromAccountID.UUID, body.Transaction.FromAccountID)

	require.NoError(t, p.Close())
	require.True(t, ch.closed)
}

func TestPublishTransactionError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("channel closed")
	p := NewAMQPPublisher(&fakeChannel{err: wantErr}, "ledger.events")

	err := p.PublishTransaction(context.Background(), domain.Transaction{ID: uuid.New()})
	require.ErrorIs(t, err, wantErr)
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	require.NoError(t, NopPublisher{}.PublishTransaction(context.Background(), domain.Transaction{}))
	require.NoError(t, NopPublisher{}.Close())
}
