// This program provides an operator client for a ledger node.
package main

import "github.com/hadcoin/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
