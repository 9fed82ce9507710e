// Package configs ships the default core intent bank.
package configs

import _ "embed"

// CoreBankFile is the file name the bank is installed under.
const CoreBankFile = "core_data.json"

//go:embed core_data.json
var CoreBank []byte
