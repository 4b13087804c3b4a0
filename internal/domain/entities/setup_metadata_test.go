package entities

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "monthly-club.backend/internal/domain/errors"
)

func validMetadata() *SetupIntentMetadata {
	return &SetupIntentMetadata{
		UserID:              uuid.New(),
		CustomerID:          "cus_123",
		AccountID:           "acct_123",
		ProductID:           uuid.New(),
		Reference:           "gym locker 12",
		PreferredPaymentDay: 15,
	}
}

func TestSetupIntentMetadata_RoundTripThroughMap(t *testing.T) {
	m := validMetadata()
	require.NoError(t, m.Validate())

	raw := m.ToMap()
	assert.Equal(t, "15", raw[MetadataPreferredPaymentDay])
	assert.Equal(t, m.ProductID.String(), raw[MetadataProductID])

	parsed, err := ParseSetupIntentMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestSetupIntentMetadata_ValidateRejects(t *testing.T) {
	cases := map[string]func(m *SetupIntentMetadata){
		"day zero":         func(m *SetupIntentMetadata) { m.PreferredPaymentDay = 0 },
		"day 29":           func(m *SetupIntentMetadata) { m.PreferredPaymentDay = 29 },
		"missing customer": func(m *SetupIntentMetadata) { m.CustomerID = "" },
		"missing account":  func(m *SetupIntentMetadata) { m.AccountID = "" },
		"nil product":      func(m *SetupIntentMetadata) { m.ProductID = uuid.Nil },
		"long reference":   func(m *SetupIntentMetadata) { m.Reference = strings.Repeat("x", MaxReferenceLength+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := validMetadata()
			mutate(m)
			assert.ErrorIs(t, m.Validate(), domainerrors.ErrValidation)
		})
	}
}

func TestParseSetupIntentMetadata_Invalid(t *testing.T) {
	base := validMetadata().ToMap()

	for _, key := range []string{MetadataUserID, MetadataProductID, MetadataPreferredPaymentDay} {
		raw := map[string]string{}
		for k, v := range base {
			raw[k] = v
		}
		raw[key] = "bogus"
		_, err := ParseSetupIntentMetadata(raw)
		assert.ErrorIs(t, err, domainerrors.ErrValidation, key)
	}

	raw := map[string]string{}
	for k, v := range base {
		raw[k] = v
	}
	raw[MetadataPreferredPaymentDay] = "31"
	_, err := ParseSetupIntentMetadata(raw)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
