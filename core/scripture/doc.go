// Package scripture provides the scripture memorization engine.
//
// A Session holds a Reference and the words of its text. Words are hidden
// at random in growing batches; hidden words are shown to the learner as a
// display position followed by underscores, and guesses are checked against
// the literal word text without regard to case.
//
// # Display positions
//
// The number shown for a hidden word is not its sequence index. It counts
// every preceding word except those ending in ':', ';', '.' or ',', so a
// word following punctuation shares a number with the word before it:
//
//	For God so loved the world, that he gave
//	1   2   3  4     5   6      6    7  8
//
// The word itself is always counted, whatever its own punctuation.
//
// # Hiding
//
// HideRandomWords samples without replacement from the words that are still
// visible, so a call always finishes in time linear in the text length. When
// nothing is left to hide it returns ErrAllHidden.
package scripture
