package snapshot

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/veraison/go-cose"
)

// Signer seals manifests as COSE_Sign1 messages so clients can check a
// downloaded generation came from the publisher.
type Signer struct {
	keyID  string
	signer cose.Signer
}

func NewSigner(keyID string, key *ecdsa.PrivateKey) (*Signer, error) {
	signer, err := cose.NewSigner(cose.AlgorithmES256, key)
	if err != nil {
		return nil, err
	}
	return &Signer{keyID: keyID, signer: signer}, nil
}

// Sign1 returns the encoded COSE_Sign1 message whose payload is the encoded
// manifest.
func (s *Signer) Sign1(m Manifest) ([]byte, error) {
	payload, err := m.Encode()
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: s.signer.Algorithm(),
				cose.HeaderLabelKeyID:     []byte(s.keyID),
			},
		},
		Payload: payload,
	}
	if err := msg.Sign(rand.Reader, nil, s.signer); err != nil {
		return nil, err
	}
	return msg.MarshalCBOR()
}

// VerifySeal checks seal against publicKey and returns the sealed manifest.
func VerifySeal(seal []byte, publicKey *ecdsa.PublicKey) (Manifest, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(seal); err != nil {
		return Manifest{}, err
	}
	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return Manifest{}, err
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrSealVerifyFailed, err)
	}
	return DecodeManifest(msg.Payload)
}
