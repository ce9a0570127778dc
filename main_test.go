package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/F3dosik/spnlc/corpus"
	"github.com/F3dosik/spnlc/spn"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"
)

const (
	testKey   = "123456789abcdef01357"
	attackKey = "52e6f2a7269e6513a6a3"
)

// execute runs the command line in args with logging turned off.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	a := newApp(&buf)

	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	require.NoError(t, a.register(parser))

	_, err := parser.ParseArgs(append([]string{"--debuglevel=off"},
		args...))

	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()

	out, err := execute(t, args...)
	require.NoError(t, err)

	return out
}

func TestEncryptDecrypt(t *testing.T) {
	out := mustExecute(t, "encrypt", "--key", testKey, "0000", "0xffff",
		"1234")
	require.Equal(t, "089c\n0338\n5f0e\n", out)

	out = mustExecute(t, "decrypt", "-k", testKey, "089c", "0338", "5f0e")
	require.Equal(t, "0000\nffff\n1234\n", out)

	out = mustExecute(t, "encrypt", "--trace", "--key", testKey, "0000")
	require.Equal(t, "089c\n", out)
}

func TestEncryptErrors(t *testing.T) {
	_, err := execute(t, "encrypt", "--key", testKey, "10000")
	require.ErrorIs(t, err, spn.ErrInvalidBlockSize)

	_, err = execute(t, "encrypt", "--key", "abc", "0000")
	require.ErrorIs(t, err, spn.ErrMalformedKeyMaterial)

	_, err = execute(t, "encrypt", "0000")
	require.ErrorContains(t, err, "no key")

	_, err = execute(t, "encrypt", "--key", testKey)
	require.Error(t, err)

	_, err = execute(t, "--debuglevel=loud", "encrypt", "--key", testKey,
		"0")
	require.ErrorContains(t, err, "invalid debug level")
}

func TestParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: \""+testKey+"\"\n"),
		0o600))

	out := mustExecute(t, "--params", path, "encrypt", "0000")
	require.Equal(t, "089c\n", out)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pbox: [0]\n"), 0o600))

	_, err := execute(t, "--params", bad, "encrypt", "--key", testKey, "0")
	require.ErrorIs(t, err, spn.ErrInvalidMapping)
}

func TestLat(t *testing.T) {
	out := mustExecute(t, "lat", "--strongest", "4")

	require.Contains(t, out, "Linear approximation table")
	require.Contains(t, out, "Strongest 4 approximations")
	require.Contains(t, out, "U4,6 ^ U4,8 ^ U4,14 ^ U4,16 ^ P5 ^ P7 ^ P8")
	require.Contains(t, out, "-0.03125")
}

func TestKeygen(t *testing.T) {
	for _, hash := range []string{"sha1", "blake2b"} {
		out := mustExecute(t, "keygen", "--hash", hash)
		require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{20}\n$`), out)

		_, err := spn.DeriveRoundKeys(strings.TrimSpace(out))
		require.NoError(t, err)
	}

	_, err := execute(t, "keygen", "--hash", "md5")
	require.Error(t, err)
}

func TestAttackOracle(t *testing.T) {
	out := mustExecute(t, "attack", "--key", attackKey, "--top", "3")

	require.Contains(t, out, "Target partial subkey = 0603")
	require.Contains(t, out, "subkey value 63 (partial key 0603)")
	require.Contains(t, out, "Success!")
}

func TestCorpusAttack(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, "corpus", "--key", attackKey, "--dir", dir)
	require.Contains(t, out, "10000 pairs written")

	path := corpus.FileName(dir, attackKey)
	pairs, err := corpus.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, pairs, 10000)

	// Without a key the attack can only report its guess.
	out = mustExecute(t, "attack", "--corpus", path, "--top", "0")
	require.Contains(t, out, "subkey value 63")
	require.NotContains(t, out, "Success")

	out = mustExecute(t, "attack", "--corpus", path, "--key", attackKey)
	require.Contains(t, out, "Success!")

	_, err = execute(t, "corpus", "--key", attackKey, "--samples", "0")
	require.Error(t, err)
}
