// Package stats records race results that outlive a single session: the
// per-player win tally and a short newest-first win history.
//
// Two backends implement Store. FileStore writes wins_count.txt and
// winhistory.txt next to the save file; SQLiteStore keeps both in stats.db.
package stats
