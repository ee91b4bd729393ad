// Command rgb-validate loads a contract's consignment archive and runs the
// validation engine against it, printing the resulting Status as JSON
// (spec §4.7, §6). It reads one JSON request with an "op" field from stdin
// and writes one JSON response to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/store"
	"rgbcore.dev/core/validation"
)

type Request struct {
	Op            string `json:"op"`
	Datadir       string `json:"datadir"`
	ContractIdHex string `json:"contract_id,omitempty"`
}

type Response struct {
	Ok       bool               `json:"ok"`
	Err      string             `json:"err,omitempty"`
	Valid    bool               `json:"valid,omitempty"`
	Failures []validation.Failure `json:"failures,omitempty"`
	Warnings []validation.Warning `json:"warnings,omitempty"`
	Infos    []validation.Info    `json:"infos,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}

	switch req.Op {
	case "validate":
		contractID, err := idtypes.ParseContractId(req.ContractIdHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}

		db, err := store.Open(req.Datadir, contractID.String())
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		defer func() { _ = db.Close() }()

		consignment, err := db.Consignment(contractID)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}

		status := validation.Validator{}.Validate(consignment)
		writeResp(os.Stdout, Response{
			Ok:       true,
			Valid:    status.IsValid(),
			Failures: status.Failures,
			Warnings: status.Warnings,
			Infos:    status.Infos,
		})
		return

	default:
		writeResp(os.Stdout, Response{Ok: false, Err: "unknown op"})
		return
	}
}
