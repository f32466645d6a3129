// Package fetch retrieves rule documents from a backing store through a
// TTL cache. Retrieval is failure-tolerant: a document that cannot be
// fetched is reported as failed and the rest of the batch proceeds.
package fetch
