// SPDX-License-Identifier: MPL-2.0

// Package evaluator provides ordered validation/transformation chains and a
// library of pre-built coercion rules.
//
// An evaluator is a Func that receives a pointer to a value, may replace the
// value with a sanitized form and reports whether the value was accepted. A
// Chain applies its evaluators in order against a scratch copy of the input and
// commits the result only when every evaluator accepts, so a rejected value is
// never partially mutated.
//
// Rules are plain configuration structs (Boolean, Integer, Vector, ...) that
// form a closed set; Coerce dispatches on the rule type and Of adapts a rule
// into a Func:
//
//	chain := evaluator.NewChain()
//	_ = chain.SetRule(evaluator.Integer{Bits: 16, Unsigned: true})
//
//	var v any = "0x1f"
//	if chain.Evaluate(&v) {
//		fmt.Println(v) // int64(31)
//	}
//
// Chains are not safe for concurrent mutation; they are owned by a single
// property or host object.
package evaluator
