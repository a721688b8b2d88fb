// Package model defines the playback domain types: question sets, questions
// and the display-sequence items a question reveals over time.
//
// Wire shapes mirror the backend API (snake_case JSON). The index annotations
// (SetIndex, GlobalIndex, QuestionInSetIndex) are not part of the wire format;
// they are assigned when per-set question lists are flattened into a single
// playback order, and reassigned whenever sets are reordered.
//
// INVARIANTS:
//   - Questions[i].GlobalIndex == i for every flattened list.
//   - SetIndex is non-decreasing when iterating a flattened list in order.
//   - A DisplayItem is immutable once decoded; item order within a question
//     is fixed by the backend and is significant.
package model
