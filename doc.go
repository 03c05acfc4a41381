// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// lower is the semantic-analysis and transformation core of a source-to-source compiler. It
// rewrites parsed terms into fully typed, lowered terms ready for code generation.
//
// The transformer works on one session at a time. Each rule synthesizes the type and the
// rewritten value of a term:
//
//   * Literal operands are folded, and identity operations such as x+0 are removed
//   * Conditionals, loops and case selections with literal selectors are pruned
//   * Grouped bindings are ordered by dependency; constants, types, forms and generics are
//     removed from the output while variables and procedures are emitted under fresh names
//   * Recursive types are closed through placeholder holes patched in place
//   * Calls select the first matching member of an overload list; generics are instantiated
//     by subtyping the arguments against their signature, and forms are expanded inline
//   * Pointer arguments live across an allocating argument are rooted in slot bindings
//
// Subtyping is structural, coinductive over cyclic types, and written in continuation-passing
// style so speculative generic bindings are undone on backtracking; see package subtype.
//
// User errors are collected as diagnostics and transformation continues. A nesting ceiling,
// an explicit halt or a version mismatch aborts the session; see package fault.
//
//
// Links:
//
// Coinductive subtyping of recursive types (Amadio & Cardelli, 1993): https://doi.org/10.1145/155183.155231
//
// Tarjan's strongly connected components algorithm: https://en.wikipedia.org/wiki/Tarjan%27s_strongly_connected_components_algorithm
//
// Skolem normal form: https://en.wikipedia.org/wiki/Skolem_normal_form
package lower
