// Package zeronull contains parameter types that send their Go zero value as SQL NULL.
/*
Sometimes the distinction between a zero value and a NULL value is not useful at the application level. For example,
an empty middle name may be stored as NULL. The types in this package encode themselves, so they can be passed as
parameters without registering anything:

	params, oids, err := tr.AdaptSequence([]any{
		zeronull.Text(firstname),
		zeronull.Text(middlename),
		zeronull.Int8(managerID),
	}, nil)

A zero middlename or managerID is sent as NULL.
*/
package zeronull
