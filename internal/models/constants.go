package models

// ============================================================================
// COMMENT LIMITS
// ============================================================================

// DefaultMaxCommentLength is the default upper bound on comment content length
const DefaultMaxCommentLength = 1000

// DefaultMaxAttachments is the default upper bound on attachments per comment
const DefaultMaxAttachments = 10

// ============================================================================
// THREAD RENDERING
// ============================================================================

// MaxRenderDepth caps the indentation depth used when a thread is rendered.
// Deeper replies are drawn at this depth; the tree itself is unbounded.
const MaxRenderDepth = 8
