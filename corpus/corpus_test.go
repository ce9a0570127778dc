package corpus

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/F3dosik/spnlc/spn"
	"github.com/stretchr/testify/require"
)

const testMaterial = "123456789abcdef01357"

func testOracle(t *testing.T) func(uint16) uint16 {
	t.Helper()

	c, err := spn.New(spn.DefaultSBox(), spn.DefaultPBox())
	require.NoError(t, err)

	keys, err := spn.DeriveRoundKeys(testMaterial)
	require.NoError(t, err)

	return c.Oracle(keys)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	pairs := Generate(testOracle(t), 2)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pairs))
	require.Equal(t, "0000, 089c\n0001, 0a03\n", buf.String())
}

func TestReadTolerant(t *testing.T) {
	t.Parallel()

	in := "0000, 089c\n\n  ffff,0338  \r\n0x1234 ,   5F0E\n"

	pairs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []spn.Pair{
		{Plaintext: 0x0000, Ciphertext: 0x089C},
		{Plaintext: 0xFFFF, Ciphertext: 0x0338},
		{Plaintext: 0x1234, Ciphertext: 0x5F0E},
	}, pairs)
}

func TestReadMalformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"0000 089c",
		"0000, 1089c",
		"zz, 0000",
		"0000, ",
	} {
		_, err := Read(strings.NewReader(in))
		require.ErrorIs(t, err, ErrMalformedPair, in)
	}

	_, err := Read(strings.NewReader("0000, 10000"))
	require.ErrorIs(t, err, spn.ErrInvalidBlockSize)
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	oracle := testOracle(t)
	pairs := Generate(oracle, DefaultSamples)
	require.Len(t, pairs, DefaultSamples)
	for _, p := range pairs[:100] {
		require.Equal(t, oracle(p.Plaintext), p.Ciphertext)
	}

	path := FileName(filepath.Join(t.TempDir(), "testData"), testMaterial)
	require.Equal(t, testMaterial+".dat", filepath.Base(path))

	require.NoError(t, WriteFile(path, pairs))

	read, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, pairs, read)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.dat"))
	require.Error(t, err)
}
