/*
Package sigs provides basic authentication middleware to verify the
signatures on a transaction and maintain sequences for replay protection.
*/
package sigs
