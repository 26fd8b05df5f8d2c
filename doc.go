// Package dynet builds randomly connected scoring networks and improves them by random search,
// rather than by gradients.
//
// Creating Networks
//
// A Network is built from a set of training samples, some BuildOptions, and a random number
// generator:
//
//		samples, err := dn.LoadSamples("colors.TrainData")
//		if err != nil {
//			return err
//		}
//
//		net, err := dn.New(samples, dn.DefaultBuildOptions(), rng.New(seed))
//
// For brevity, dynet is abbreviated 'dn'.
//
// Networks consist of a flat list of Nodes. The first Nodes are inputs, one for each byte of
// the widest sample. Every other Node is connected to a random selection of Nodes (possibly
// including itself), and its value is the average of theirs. Nodes also have a threshold: a
// Node whose value falls below its threshold reads as zero to everything downstream.
//
// For each distinct label in the samples, the Network has a set of ClassWeights, which give a
// weighted average of the non-input Node values. The label with the highest score is the
// Network's answer.
//
// Training
//
// Train runs the Network over each sample once and counts how many it got right:
//
//		res, err := net.Train(samples, cutoff, dn.DefaultCheckpoint)
//
// The cutoff allows abandoning poor Networks early: once the checkpoint number of samples has
// been run, and at every doubling after that, the accuracy so far is compared to the cutoff.
// If it is lower, Train stops with ErrBelowCutoff.
//
// Nothing is learned during Train. Instead, the caller keeps a State of the best Network seen,
// calls Reroll to try new class weights, and occasionally builds a new Network entirely.
// Package search does exactly that.
//
// Saving and Loading
//
// A State is an independent copy of a Network. It can be written to and read from files:
//
//		err := net.State().Save(path, overwrite)
//		st, err := dn.LoadState(path)
//		net, err := dn.FromState(st, opts, rng.New(seed))
//
// Training data is stored in its own binary format, handled by ReadSamples, WriteSamples,
// LoadSamples, and SaveSamples.
package dynet
