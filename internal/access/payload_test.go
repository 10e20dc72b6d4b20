package access_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sid743/TG-cloud-storage/internal/access"
)

func TestCodec(t *testing.T) {
	t.Parallel()

	codec := access.NewCodec([]byte("test-secret"))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		for _, action := range []access.Action{access.ActionApprove, access.ActionDeny} {
			raw := codec.Encode(access.Signal{Action: action, Code: "Ab12Cd34", RequesterID: 987654321})
			sig, err := codec.Decode(raw)
			require.NoError(t, err)
			require.Equal(t, action, sig.Action)
			require.Equal(t, "Ab12Cd34", sig.Code)
			require.Equal(t, int64(987654321), sig.RequesterID)
		}
	})

	t.Run("fits the 64-byte callback-data limit", func(t *testing.T) {
		t.Parallel()

		// Worst case: longest action, a full-width user id.
		raw := codec.Encode(access.Signal{Action: access.ActionApprove, Code: "ZZZZZZZZ", RequesterID: 9223372036854775807})
		require.LessOrEqual(t, len(raw), 64, "payload %q too long", raw)
	})

	t.Run("rejects a forged requester id", func(t *testing.T) {
		t.Parallel()

		raw := codec.Encode(access.Signal{Action: access.ActionApprove, Code: "Ab12Cd34", RequesterID: 111})
		forged := strings.Replace(raw, "r=111", "r=222", 1)
		_, err := codec.Decode(forged)
		require.ErrorIs(t, err, access.ErrBadPayload)
	})

	t.Run("rejects a swapped action", func(t *testing.T) {
		t.Parallel()

		raw := codec.Encode(access.Signal{Action: access.ActionDeny, Code: "Ab12Cd34", RequesterID: 111})
		forged := strings.Replace(raw, "a=deny", "a=approve", 1)
		_, err := codec.Decode(forged)
		require.ErrorIs(t, err, access.ErrBadPayload)
	})

	t.Run("rejects another codec's signature", func(t *testing.T) {
		t.Parallel()

		other := access.NewCodec([]byte("other-secret"))
		raw := other.Encode(access.Signal{Action: access.ActionApprove, Code: "Ab12Cd34", RequesterID: 111})
		_, err := codec.Decode(raw)
		require.ErrorIs(t, err, access.ErrBadPayload)
	})

	t.Run("rejects garbage and legacy formats", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "ok_Ab12Cd34_111", "v=2&a=approve&c=x&r=1&s=00", "a=steal&c=x&r=1&s=00&v=1", "v=1&a=approve&c=x&r=NaN&s=00", "%zz"} {
			_, err := codec.Decode(raw)
			require.ErrorIs(t, err, access.ErrBadPayload, "payload %q", raw)
		}
	})
}
