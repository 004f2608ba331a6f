package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type kvRepositorySuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestKVRepositorySuite(t *testing.T) {
	suite.Run(t, new(kvRepositorySuite))
}

// before all tests in the suite
func (suite *kvRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)
	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *kvRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(suite.T().Context()))
	}
}

func (suite *kvRepositorySuite) TestNewKV() {
	_, err := repository.NewKV(suite.pool, "")
	suite.EqualError(err, "ownerID is empty")
}

func (suite *kvRepositorySuite) TestGetSet() {
	defer suite.deleteAll()

	tests := []struct {
		name  string
		key   string
		value []byte
	}{
		{name: "json value: ok", key: "cart", value: []byte(`[{"id":"p1"}]`)},
		{name: "empty value: ok", key: "chatbot_messages", value: []byte{}},
		{name: "random value: ok", key: gofakeit.Word(), value: []byte(gofakeit.Sentence(8))},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			kv, err := repository.NewKV(suite.pool, gofakeit.UUID())
			require.NoError(t, err)

			_, err = kv.Get(ctx, tt.key)
			require.ErrorIs(t, err, port.ErrNotFound)

			require.NoError(t, kv.Set(ctx, tt.key, tt.value))

			got, err := kv.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, string(tt.value), string(got))
		})
	}
}

func (suite *kvRepositorySuite) TestOwnersAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	alice, err := repository.NewKV(suite.pool, gofakeit.UUID())
	require.NoError(t, err)
	bob, err := repository.NewKV(suite.pool, gofakeit.UUID())
	require.NoError(t, err)

	require.NoError(t, alice.Set(ctx, cart.StorageKey, []byte(`[]`)))

	_, err = bob.Get(ctx, cart.StorageKey)
	require.ErrorIs(t, err, port.ErrNotFound)
}

func (suite *kvRepositorySuite) TestCartStoreRoundTrip() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	kv, err := repository.NewKV(suite.pool, gofakeit.UUID())
	require.NoError(t, err)

	store := cart.New(ctx, kv)
	require.NoError(t, store.AddItem(ctx, domain.LineItem{ID: "p1", Type: "product", Name: "Widget", Price: decimal.NewFromInt(100)}))
	require.NoError(t, store.AddItem(ctx, domain.LineItem{ID: "p1", Type: "product", Name: "Widget", Price: decimal.NewFromInt(100)}))

	reloaded := cart.New(ctx, kv)
	assert.Equal(t, 2, reloaded.ItemCount())
	assert.True(t, decimal.NewFromInt(200).Equal(reloaded.Total()))
}

func (suite *kvRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE kv_entries")
	suite.NoError(err)
}
