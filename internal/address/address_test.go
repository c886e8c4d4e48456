package address

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgram = FromName("address-test-program")

func TestFindProgramAddress_Deterministic(t *testing.T) {
	parent := FromName("parent")

	first, bump1, err := Derive(testProgram, "vault", parent)
	require.NoError(t, err)
	second, bump2, err := Derive(testProgram, "vault", parent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, bump1, bump2)
	assert.False(t, IsOnCurve(first[:]), "derived identity must be off curve")
}

func TestFindProgramAddress_DistinctInputs(t *testing.T) {
	parent := FromName("parent")
	other := FromName("other")

	base, _, err := Derive(testProgram, "vault", parent)
	require.NoError(t, err)

	tests := []struct {
		name    string
		program Identity
		tag     string
		parent  Identity
		aux     [][]byte
	}{
		{"different tag", testProgram, "treasury", parent, nil},
		{"different parent", testProgram, "vault", other, nil},
		{"different program", FromName("another-program"), "vault", parent, nil},
		{"aux bytes", testProgram, "vault", parent, [][]byte{Uint64Seed(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, err := Derive(tt.program, tt.tag, tt.parent, tt.aux...)
			require.NoError(t, err)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestCreateProgramAddress_MatchesFound(t *testing.T) {
	parent := FromName("parent")
	seeds := [][]byte{[]byte("child"), parent[:]}

	found, bump, err := FindProgramAddress(seeds, testProgram)
	require.NoError(t, err)

	recreated, err := CreateProgramAddress(append(seeds, []byte{bump}), testProgram)
	require.NoError(t, err)
	assert.Equal(t, found, recreated)
}

func TestCreateProgramAddress_SeedLimits(t *testing.T) {
	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, testProgram)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	seeds := make([][]byte, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, err = CreateProgramAddress(seeds, testProgram)
	assert.ErrorIs(t, err, ErrTooManySeeds)
}

func TestUint64Seed_LittleEndian(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, Uint64Seed(1))
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, Uint64Seed(0x0102030405060708))
}

func TestParseIdentity(t *testing.T) {
	id := FromName("round-trip")

	parsed, err := ParseIdentity(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseIdentity("not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = ParseIdentity("abc")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestIdentity_JSON(t *testing.T) {
	type payload struct {
		Key Identity `json:"key"`
	}
	in := payload{Key: FromName("json")}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Key.String())

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestKeypair_SignVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("authorize")
	sig := kp.Sign(msg)

	assert.True(t, Verify(kp.Public, msg, sig))
	assert.False(t, Verify(kp.Public, []byte("tampered"), sig))
	assert.False(t, Verify(kp.Public, msg, sig[:10]))
	assert.True(t, IsOnCurve(kp.Public[:]), "keypair public keys are curve points")
}

func TestKeypairFromSeed(t *testing.T) {
	seed := make([]byte, 32)
	seed[0] = 7

	a, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Public, b.Public)

	_, err = KeypairFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}
