/*
Package bounty implements the bounty escrow ledger.

A bounty is a funded unit of work with issuers, approvers, declared
milestone payouts and a custodied balance. Contributors deposit funds,
fulfillers submit work, approvers accept fulfillments committing a
fraction of the custodied balance, and fulfillers pull the committed
payout. Contributions remain individually refundable after the deadline
for as long as the funds were not spent.

Funds are held by the custody ledger under the bounty's own address, so
the balance conservation rules of the custody controller apply to every
bounty mutation.
*/
package bounty
