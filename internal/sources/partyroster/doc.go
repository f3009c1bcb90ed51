// Package partyroster implements the party roster source adapter.
//
// A party publishes its candidates on a handful of irregular pages (a roster,
// a candidates page, news posts) and usually an RSS or Atom feed. The adapter
// reads each page and feed item with three patterns in turn:
//
//   - a bold name with an explicit district ("**Jane Doe**, House District 42")
//   - a list item with a district ("- Jane Doe - SD 12")
//   - a prose announcement ("Jane Doe filed to run for House District 42")
//
// Every match carries the adapter's own party at HIGH confidence.
package partyroster
