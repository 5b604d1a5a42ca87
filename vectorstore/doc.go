// Package vectorstore uploads embedded chunks to a remote vector database
// and runs date-bounded similarity searches against it. The production
// implementation talks to Supabase over its PostgREST API.
package vectorstore
