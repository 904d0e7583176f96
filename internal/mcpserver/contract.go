package mcpserver

// EntryFormatContract describes the canonical journal entry format that
// LLM consumers should follow when creating notes or committing entries.
const EntryFormatContract = `# MemoryLane Entry Format Contract

Every journal entry committed to MemoryLane SHOULD follow this structure.

## Structure

` + "```" + `text
Plain prose, one or more paragraphs separated by blank lines.

Use #tags inline to categorize the entry (lowercase, e.g. #travel, #family).
Paragraphs become rings and sentences become nodes in the memory map, so
keep paragraphs focused on one thought each.
` + "```" + `

## Rules

1. **Plain text.** Entries are prose, not Markdown documents. No frontmatter,
   no headings required.
2. **Paragraphs matter.** Blank lines separate paragraphs; each paragraph
   becomes its own ring in the note's hierarchical map.
3. **Tags** are inline hash tags: ` + "`" + `#one-word` + "`" + `, lowercase, kebab-case.
4. **Sentences** end with ` + "`" + `.` + "`" + `, ` + "`" + `!` + "`" + ` or ` + "`" + `?` + "`" + `. The first few
   sentences of each paragraph are surfaced as map nodes.
5. **Emotion analysis is automatic.** Do not annotate emotions manually; the
   engine classifies the text on every commit.
6. **Encoding** is UTF-8.

## Assets & Images

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool before referencing them.
- Assets are stored in the shared ` + "`" + `attachments/` + "`" + ` directory (flat, no sub-folders).
- Reference them by absolute path: ` + "`" + `/attachments/filename.png` + "`" + `.
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.
- Attach them to a commit through the save request's assets list, not inline.

## Branching

- Every note starts on the ` + "`" + `main` + "`" + ` branch with a genesis commit.
- Fork a branch to explore an alternate telling of the same memory; the fork
  copies the full history up to the head.
- Commits are append-only. Never rewrite past entries; commit a new snapshot.

## Example

` + "```" + `text
We finally made it home after two days of delays. #travel

The kids slept the whole last leg. I sat awake watching the clouds and
felt nothing but gratitude. Quiet, heavy, good gratitude.
` + "```" + `
`
