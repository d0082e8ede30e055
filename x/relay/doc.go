/*
Package relay implements meta transaction forwarding. A user signs an
intent off chain and any account can submit it wrapped in a transaction.
The decorator verifies the intent signature, guards against replays with
a per signer monotonic nonce and authenticates the original signer for
the wrapped message.
*/
package relay
