// Package corpus provides the static ordered catalog of chapters: an
// immutable index built once at startup supporting forward and reverse
// traversal, page enumeration, and containment queries, plus the CSV
// parsing used by the offline import step.
package corpus
