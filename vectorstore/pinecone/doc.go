// Package pinecone implements vectorstore.Index against the Pinecone REST
// API.
//
// Lifecycle operations go to the controller at https://api.pinecone.io.
// Vector operations go to the per-index data-plane host, discovered through
// the controller on first use and cached for the life of the client. Both
// endpoints can be overridden through the configuration, which is how the
// tests point the client at local servers.
//
// Missing namespaces are treated as empty rather than as errors on delete
// paths, so removing vectors for a document that was never synced is safe.
package pinecone
