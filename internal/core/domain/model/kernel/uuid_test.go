package kernel_test

import (
	"testing"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courierIDText = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id1.String())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	accepted := []string{
		courierIDText,
		"{" + courierIDText + "}",
		"urn:uuid:" + courierIDText,
		"550e8400e29b41d4a716446655440000",
	}
	for _, in := range accepted {
		t.Run("accepts "+in, func(t *testing.T) {
			id, err := kernel.UUIDFromString(in)

			require.NoError(t, err)
			assert.Equal(t, courierIDText, id.String())
		})
	}

	rejected := []string{"", "courier-7", "550e8400-e29b-41d4-a716", "550e8400-e29b-41d4-a716-44665544000g"}
	for _, in := range rejected {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := kernel.UUIDFromString(in)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid UUID format")
		})
	}
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("restores stored identifier", func(t *testing.T) {
		raw := uuid.MustParse(courierIDText)

		id, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.Equal(t, courierIDText, id.String())
		assert.Equal(t, raw, id.Bytes())
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("rejects nil identifier", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUIDsFromRaw(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids := kernel.UUIDsFromRaw([]uuid.UUID{a, uuid.Nil, b})

	require.Len(t, ids, 2)
	assert.Equal(t, a, ids[0].Bytes())
	assert.Equal(t, b, ids[1].Bytes())
	assert.Empty(t, kernel.UUIDsFromRaw(nil))
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID
	parsedNil, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, zero.Validate())
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, parsedNil.Validate())
	assert.True(t, zero.IsEqual(parsedNil))
}

func TestUUID_BytesReturnsCopy(t *testing.T) {
	original := kernel.NewUUID()
	text := original.String()

	raw := original.Bytes()
	for i := range raw {
		raw[i] = 0xFF
	}

	assert.Equal(t, text, original.String())
}
