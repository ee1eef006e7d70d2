// Package main is the entry point for BillGate.
package main

func main() {
	Execute()
}
