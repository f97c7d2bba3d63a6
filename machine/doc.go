// Package machine implements the Divarema register machine and its loader.
//
// The machine has a single 32-bit accumulator, a fixed size memory of 32-bit
// cells, and an instruction pointer into an immutable program of eight
// accumulator instructions: LOAD, ADD, SUB, STORE, JGZ, READ, PRINT and HALT.
// READ and PRINT move ASCII decimal lines through a tape.Tape.
//
// The loader reads line oriented source text, one instruction per line,
// supporting comments, labels, equates, and compile-time expression
// evaluation.
package machine
