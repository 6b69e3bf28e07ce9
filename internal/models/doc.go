// Package models defines the core domain models for Ledgerly.
//
// # Models
//
//   - Account: one entry in the fixed account chart (checking, credit card, ...)
//   - Allocation: one row of a named allocation rule (account + percentage)
//   - Entry: a ledger entry (expense, income, or one income-split portion)
//   - OutstandingBalance: a credit charge that has not been fully paid down
//   - Payment: a credit-card payment and the balances it settled
//
// # Design Principles
//
//  1. **Decimal money**: amounts and percentages are decimal.Decimal, never
//     float64, so settlement arithmetic is exact.
//  2. **Calendar dates**: user-facing dates are YYYY-MM-DD strings, separate
//     from the CreatedAt instant the store assigns.
//  3. **Avoid circular references**: models link by ID strings, not pointers.
//  4. **Explicit optionals**: fields that may be absent (a payment note) are
//     pointers, not empty-string sentinels.
package models
