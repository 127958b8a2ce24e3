/*
Package secret implements Secret contract: a single-owner value store.

The owner is bound once on deployment: either the address passed as the first
deployment argument or the sender of the deploying transaction. Nobody can
rebind it afterward, contract updates included. Only the owner can write or
read the secret and update the contract; any other caller gets the same
'unauthorized' exception whether the secret is set or not.

Contract storage is replicated to every node and is readable by anyone
regardless of the checks above. The contract guarantees integrity and access
control of its methods, not confidentiality. Values that must stay private
should be sealed off-chain before SetSecret (see seal package).

# Contract notifications

SecretChanged notification. This notification is produced on every
successful SetSecret invocation. It never carries the value.

	SecretChanged
	  - name: seq
	    type: Integer

Seq is a sequence number of the write starting from 1.
*/
package secret

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   owner address, written once on deployment
 - 's' -> []byte
   current secret value
 - 'n' -> int
   sequence number of the last write; presence means the secret is set
*/
