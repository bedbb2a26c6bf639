package binary

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks downloaded assets against the release's SHA2-256SUMS and,
// when a keyring is configured, the OpenPGP signature of that file.
type Verifier struct {
	keyringPath string
}

// NewVerifier creates a new verifier. An empty keyringPath disables
// signature checks.
func NewVerifier(keyringPath string) *Verifier {
	return &Verifier{keyringPath: keyringPath}
}

// RequiresSignature reports whether a signature file must be fetched.
func (v *Verifier) RequiresSignature() bool {
	return v.keyringPath != ""
}

// VerifyFile verifies assetPath as the release asset named asset.
// The sums file is authenticated first so a tampered list is never trusted.
func (v *Verifier) VerifyFile(assetPath, asset, checksumPath, signaturePath string) (*VerificationResult, error) {
	if checksumPath == "" {
		return nil, fmt.Errorf("checksum file required but not available")
	}

	method := VerificationSHA256
	if v.RequiresSignature() {
		if signaturePath == "" {
			return nil, fmt.Errorf("signature required by keyring %s but not available", v.keyringPath)
		}
		result, err := v.verifyGPG(checksumPath, signaturePath)
		if err != nil {
			return result, err
		}
		method = VerificationGPG
	}

	result, err := v.verifySHA256(assetPath, asset, checksumPath)
	if err != nil {
		return result, err
	}
	result.Method = method
	return result, nil
}

// verifyGPG checks a detached signature over the checksum file
func (v *Verifier) verifyGPG(checksumPath, signaturePath string) (*VerificationResult, error) {
	keyring, err := v.loadKeyring()
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("load keyring: %w", err),
		}, err
	}

	signed, err := os.ReadFile(checksumPath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("read checksums: %w", err),
		}, err
	}

	sig, err := os.ReadFile(signaturePath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   fmt.Errorf("read signature: %w", err),
		}, err
	}

	// Try armored first
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(signed), bytes.NewReader(sig), nil)
	if err != nil {
		_, err = openpgp.CheckDetachedSignature(keyring, bytes.NewReader(signed), bytes.NewReader(sig), nil)
	}
	if err != nil {
		err = fmt.Errorf("verify signature: %w", err)
		return &VerificationResult{
			Method:  VerificationGPG,
			Success: false,
			Error:   err,
		}, err
	}

	return &VerificationResult{
		Method:  VerificationGPG,
		Success: true,
	}, nil
}

// verifySHA256 verifies a file using SHA256 checksum
func (v *Verifier) verifySHA256(assetPath, asset, checksumPath string) (*VerificationResult, error) {
	actualChecksum, err := calculateSHA256(assetPath)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error:   fmt.Errorf("calculate checksum: %w", err),
		}, err
	}

	expectedChecksum, err := findChecksum(checksumPath, asset)
	if err != nil {
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error:   fmt.Errorf("find checksum: %w", err),
		}, err
	}

	// Compare checksums (case-insensitive)
	if !strings.EqualFold(actualChecksum, expectedChecksum) {
		err := fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s",
			actualChecksum, expectedChecksum)
		return &VerificationResult{
			Method:  VerificationSHA256,
			Success: false,
			Error:   err,
		}, err
	}

	return &VerificationResult{
		Method:  VerificationSHA256,
		Success: true,
	}, nil
}

// loadKeyring reads an armored or binary OpenPGP keyring
func (v *Verifier) loadKeyring() (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		// Try reading as non-armored keyring
		if _, serr := keyringFile.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for a specific filename in a checksum file.
// Format: "abc123def456  yt-dlp_linux", with an optional "*" binary marker.
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		name := strings.TrimPrefix(parts[1], "*")
		if name == filename || filepath.Base(name) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
