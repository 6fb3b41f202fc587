/*
Package notetree decodes the "note tree" container found in note backups.

The container is a flat concatenation of tag-marked records with no global
length prefix and no record count. Each record is decoded by a fixed,
strictly ordered grammar: a marker byte, then a payload whose shape depends
on the marker (opaque bytes, length-prefixed text, length-prefixed JSON, or a
32-character hexadecimal identifier). A few fields are optional; their
presence is decided by peeking at the next byte, never by a declared length.

# Decoding records

	f, err := notetree.Open("note_tree")
	if err != nil {
	    return err
	}
	defer f.Close()

	dec := f.Decoder(nil)
	for dec.Next() {
	    rec := dec.Record()
	    fmt.Println(rec.ID, rec.Name)
	}
	if err := dec.Err(); err != nil {
	    return err
	}

Every fixed byte is a hard assertion. A mismatch stops the decoder with a
*FieldError carrying the offset, the field and the expected and actual bytes;
match the kind with errors.Is(err, notetree.ErrGrammarViolation) and
friends. A stream that ends exactly at a record boundary ends the sequence
without error. Decoder.Resync skips forward to the next plausible lead-in
when a caller prefers to salvage what follows a broken record.

# Exploring unfamiliar data

Scan reads a bounded number of markers without enforcing order, reporting
unknown markers instead of failing. ExtractObjects walks raw bytes for
brace-balanced JSON objects, keeping the bytes in front of each object (the
prelude) for inspection. Both are best effort and are not expected to walk
a whole stream cleanly.

JSON payloads are returned as text; their syntax is not checked.
*/
package notetree
