/*
Package custody implements the asset custody ledger.

Every address owns a set of holdings, one amount per asset. The
controller moves value between addresses. Escrowing funds for a bounty
is a transfer into the bounty's own address, paying out is a transfer
out of it. All asset kinds are moved through the same interface, so the
calling code never branches on the asset representation.
*/
package custody
