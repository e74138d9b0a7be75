// Command fetchcorpus downloads public speech corpora and collects their
// audio into a foreground/background training layout.
package main
