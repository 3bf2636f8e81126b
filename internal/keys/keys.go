package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"math/big"
)

// KeyPair is a participant's ECDSA P-256 identity. The chaincode stores
// the public key as PKIX PEM and verifies hex-encoded ASN.1 signatures
// over SHA-256 message hashes, so both helpers emit exactly that format.
type KeyPair struct {
	priv *ecdsa.PrivateKey
}

func Generate() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// PublicKeyPEM returns the public key as a PKIX "PUBLIC KEY" PEM block.
func (k *KeyPair) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&k.priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

type ecdsaSignature struct {
	R, S *big.Int
}

// Sign hashes message with SHA-256 and returns the ASN.1 DER signature
// hex-encoded.
func (k *KeyPair) Sign(message string) (string, error) {
	hash := sha256.Sum256([]byte(message))
	r, s, err := ecdsa.Sign(rand.Reader, k.priv, hash[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	der, err := asn1.Marshal(ecdsaSignature{R: r, S: s})
	if err != nil {
		return "", fmt.Errorf("failed to encode signature: %w", err)
	}
	return hex.EncodeToString(der), nil
}

// Verify checks a hex ASN.1 signature over message against a PKIX PEM
// public key. Mirrors the chaincode's VerifySignature semantics.
func Verify(pubKeyPEM, message, sigHex string) (bool, error) {
	block, _ := pem.Decode([]byte(pubKeyPEM))
	if block == nil || block.Type != "PUBLIC KEY" {
		return false, fmt.Errorf("invalid PEM format for public key")
	}
	pubInterface, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return false, fmt.Errorf("failed to parse public key: %w", err)
	}
	pubKey, ok := pubInterface.(*ecdsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("public key is not ECDSA")
	}
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("invalid signature format: %w", err)
	}
	var sig ecdsaSignature
	if _, err := asn1.Unmarshal(sigBytes, &sig); err != nil {
		return false, fmt.Errorf("failed to parse signature: %w", err)
	}
	hash := sha256.Sum256([]byte(message))
	return ecdsa.Verify(pubKey, hash[:], sig.R, sig.S), nil
}

// SelfCheck signs and verifies a probe message with the pair, catching
// broken key material before it is registered on the ledger.
func (k *KeyPair) SelfCheck() error {
	const probe = "reputrade-keycheck"
	sig, err := k.Sign(probe)
	if err != nil {
		return err
	}
	pemPub, err := k.PublicKeyPEM()
	if err != nil {
		return err
	}
	ok, err := Verify(pemPub, probe, sig)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("self-check signature did not verify")
	}
	return nil
}
