// Package posts parses blog post documents (a metadata block followed by a
// Markdown body) into Post values and indexes them in a Collection that can be
// queried by date, category and tag.
package posts
