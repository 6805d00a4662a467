package hexcodec_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orion-protocol/orion-fhe/internal/hexcodec"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0xff, 0x00, 0xff},
		[]byte("Hello"),
	}
	for i := 0; i < 8; i++ {
		buf := make([]byte, 1<<i)
		_, err := rand.Read(buf)
		require.NoError(t, err)
		cases = append(cases, buf)
	}

	for _, in := range cases {
		out, err := hexcodec.Decode(hexcodec.Encode(in))
		require.NoError(t, err)
		if len(in) == 0 {
			require.Empty(t, out)
		} else {
			require.Equal(t, in, out)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, text := range []string{"zz11", "0xabcd", "abc", "48656c6c6f!"} {
		_, err := hexcodec.Decode(text)
		require.ErrorIs(t, err, hexcodec.ErrMalformedEncoding, "input %q", text)
	}
}

func TestDecodeTolerantOfWhitespace(t *testing.T) {
	out, err := hexcodec.Decode(" 48656c6c6f \n")
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), out)

	out, err = hexcodec.Decode("48656c6c6f\n")
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), out)
}

func TestDecodeCaseInsensitive(t *testing.T) {
	lower, err := hexcodec.Decode("deadbeef")
	require.NoError(t, err)
	upper, err := hexcodec.Decode("DEADBEEF")
	require.NoError(t, err)
	require.Equal(t, lower, upper)
}
