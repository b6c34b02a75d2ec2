// Package files discovers transaction input files on disk. The processor
// accepts a directory as input; discovery finds the .csv and .xlsx files
// inside it in a deterministic order.
package files
