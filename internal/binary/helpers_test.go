package binary

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"        //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"  //nolint:staticcheck
	"github.com/ProtonMail/go-crypto/openpgp/packet" //nolint:staticcheck
)

// newTestEntity generates a throwaway signing key.
func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()

	entity, err := openpgp.NewEntity("vget test", "", "test@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return entity
}

// writeKeyring exports the public half of entity to path.
func writeKeyring(t *testing.T, entity *openpgp.Entity, path string, armored bool) {
	t.Helper()

	var buf bytes.Buffer
	if armored {
		w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		if err != nil {
			t.Fatalf("armor encode: %v", err)
		}
		if err := entity.Serialize(w); err != nil {
			t.Fatalf("serialize key: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close armor: %v", err)
		}
	} else if err := entity.Serialize(&buf); err != nil {
		t.Fatalf("serialize key: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write keyring: %v", err)
	}
}

// signDetached returns a detached signature of data.
func signDetached(t *testing.T, entity *openpgp.Entity, data []byte, armored bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	if armored {
		err = openpgp.ArmoredDetachSign(&buf, entity, bytes.NewReader(data), nil)
	} else {
		err = openpgp.DetachSign(&buf, entity, bytes.NewReader(data), nil)
	}
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return buf.Bytes()
}

// sha256Hex returns the hex SHA-256 of data.
func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeFile writes data to path, failing the test on error.
func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
