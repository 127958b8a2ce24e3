package secret

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/secret-contract/common"
	"github.com/nspcc-dev/secret-contract/contracts/secret/secretconst"
)

const (
	ownerKey   = "o"
	secretKey  = "s"
	counterKey = "n"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if storage.Get(ctx, ownerKey) != nil {
		panic(secretconst.ErrAlreadyInitialized)
	}

	var owner interop.Hash160
	if data != nil {
		args := data.([]any)
		if len(args) > 0 {
			owner = args[0].(interop.Hash160)
		}
	}

	if len(owner) == 0 {
		owner = runtime.GetScriptContainer().Sender
	}

	if len(owner) != 20 {
		panic(secretconst.ErrInvalidOwner)
	}

	storage.Put(ctx, ownerKey, owner)

	runtime.Log("secret contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the owner.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()

	common.CheckOwnerWitness(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("secret contract updated")
}

// SetSecret method overwrites the stored secret with the given value. It can
// be invoked only by the owner.
//
// Every successful call produces SecretChanged notification with the
// sequence number of the write. The value itself is never notified.
func SetSecret(value []byte) {
	ctx := storage.GetContext()

	common.CheckOwnerWitness(getOwner(ctx))

	seq := 1
	rawSeq := storage.Get(ctx, counterKey)
	if rawSeq != nil {
		seq = rawSeq.(int) + 1
	}

	storage.Put(ctx, secretKey, value)
	storage.Put(ctx, counterKey, seq)

	runtime.Notify(secretconst.SecretChangedEvent, seq)
}

// GetSecret method returns the stored secret. It can be invoked only by the
// owner and fails if no secret has been set yet.
//
// Note that contract storage is public: anyone with access to the chain state
// can read stored bytes regardless of this check. Store ciphertext if the
// value must stay confidential.
func GetSecret() []byte {
	ctx := storage.GetReadOnlyContext()

	common.CheckOwnerWitness(getOwner(ctx))

	if storage.Get(ctx, counterKey) == nil {
		panic(secretconst.ErrNotSet)
	}

	val := storage.Get(ctx, secretKey)
	if val == nil {
		return []byte{}
	}

	return val.([]byte)
}

// IsSet method returns true if the secret has been set at least once. It can
// be invoked only by the owner.
func IsSet() bool {
	ctx := storage.GetReadOnlyContext()

	common.CheckOwnerWitness(getOwner(ctx))

	return storage.Get(ctx, counterKey) != nil
}

// Owner method returns the address of the contract owner.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}
