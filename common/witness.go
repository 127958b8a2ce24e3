package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

// ErrOwnerWitnessFailed appears when the method must be called by the owner
// but was not. Contracts re-export it in their constants packages.
const ErrOwnerWitnessFailed = "unauthorized"

// CheckOwnerWitness checks witness of the passed owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner []byte) {
	checkWitnessWithPanic(owner, ErrOwnerWitnessFailed)
}

// HasOwnerWitness returns true if the owner has witnessed current
// invocation.
func HasOwnerWitness(owner []byte) bool {
	return len(owner) != 0 && runtime.CheckWitness(owner)
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !HasOwnerWitness(caller) {
		panic(panicMsg)
	}
}
