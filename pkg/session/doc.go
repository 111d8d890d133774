/*
Package session guards access to conversation threads.

A Manager wraps a ports.StateStore and serializes every operation on the same
thread ID, in process through a reference-counted mutex map and optionally
across replicas through a ports.DistributedLocker. Operations on different
threads never block each other.
*/
package session
