// Package outline implements the heading-level inference engine.
//
// Given a page-ordered stream of text fragments with font metadata, the
// engine reconstructs a document outline: a title plus an ordered list of
// headings with inferred levels. No document vocabulary is consulted;
// every decision is structural or statistical.
//
// # Pipeline
//
// The engine runs four stages in strict order:
//
//  1. [CollectStats] scans the fragments once and builds the
//     distribution of distinct font sizes. The most frequent size is
//     presumed to be body text.
//  2. [TierClusterer] groups the distinct sizes into a small number of
//     ordered size tiers using seeded, bounded k-means over the sizes
//     weighted by log occurrence count. Identical input and an identical
//     seed always produce identical tiers.
//  3. [Classifier] decides fragment by fragment whether text is a
//     heading candidate, using an ordered predicate chain: noise
//     rejection, then promotion by size tier, then promotion by
//     structural pattern for body-tier text. Fragments are judged
//     independently, so pages classify in parallel.
//  4. [Assembler] suppresses repeated page furniture, selects the
//     title, maps tier ranks to heading levels, and emits the final
//     ordered [model.Outline].
//
// [Engine.Extract] composes the stages and owns the bounded worker pool
// for stage 3. Cancelling the context between page completions yields a
// valid partial outline whose [Result] carries [TruncatedByGovernor];
// nothing is discarded wholesale.
//
// # Recoverable conditions
//
// Zero input fragments ([EmptyDocument]) and a single font size
// everywhere ([DegenerateFontSpace]) are ordinary states of real
// documents, reported on the [Result], never returned as errors.
// Ambiguity always resolves toward "body text": the engine degrades
// gracefully rather than fabricating structure.
package outline
