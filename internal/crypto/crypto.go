// Package crypto implements the two symmetric cipher variants a Context
// can encrypt publish payloads and decrypt subscribe payloads with: a
// legacy fixed-IV variant kept for backward compatibility with old
// subscribers, and an AES-CBC variant with a random IV prefixed to the
// ciphertext.
package crypto

// Module encrypts outgoing publish bodies and decrypts incoming
// subscribe payloads. Both variants below implement it.
//
// Decrypt returns a plain error; the Context's subscribe handling logs
// it as a warning together with the channel and drops that message from
// the queue.
type Module interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}
