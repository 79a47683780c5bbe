// Package markdown renders post bodies with goldmark and loads post
// documents from a filesystem into a sealed posts.Collection.
package markdown
