package replicaadmin

import (
	"database/sql/driver"
	"fmt"
	"sync"

	sqlite "modernc.org/sqlite"
)

// TxSeqFunction is the scalar function returning the txseq of a replica by
// name, NULL when the name is unknown.
const TxSeqFunction = "ha_txseq"

var (
	registerFunctionsOnce sync.Once
	registerFunctionsErr  error
)

// registerFunctions registers ha_txseq with the driver. Only connections
// opened after the first call see it. A failed registration is reported by
// every call.
func registerFunctions() error {
	registerFunctionsOnce.Do(func() {
		if err := sqlite.RegisterScalarFunction(TxSeqFunction, 1, txseqImpl); err != nil {
			registerFunctionsErr = fmt.Errorf("%s: unable to register function: %w", TxSeqFunction, err)
		}
	})
	return registerFunctionsErr
}

func txseqImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: expected 1 argument, got %d", TxSeqFunction, len(args))
	}
	var name string
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T; want TEXT", TxSeqFunction, args[0])
	}
	ref := module.source.Load()
	if ref == nil || ref.Source == nil {
		return nil, nil
	}
	for _, r := range ref.Replicas() {
		if r.Name() == name {
			return r.TxSeq(), nil
		}
	}
	return nil, nil
}
