/*
Package bounties defines the common interfaces that tie the framework
together: transactions and messages, handlers and decorators, the key-value
store contracts and the context helpers used to pass block information
between the application shell and the extensions.

The domain logic lives under x/ (bounty ledger, asset custody, relay), the
persistence building blocks under orm/ and store/, and the application
shell under app/.
*/
package bounties
